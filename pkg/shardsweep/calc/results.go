package calc

// Results is an ordered sequence of sweep results.
// The order matches the order of Input.ShardSizes.
type Results []Result

// Row is a display tuple for a single result.
type Row struct {
	ShardSize         int
	ErrorProbability  float64
	OptimalThroughput float64
}

// Rows returns the results as display tuples.
func (r Results) Rows() []Row {
	rows := make([]Row, len(r))
	for i, res := range r {
		rows[i] = Row(res)
	}
	return rows
}

// Series returns the error probabilities and throughputs as two parallel
// sequences for charting.
func (r Results) Series() (errs, throughputs []float64) {
	errs = make([]float64, len(r))
	throughputs = make([]float64, len(r))
	for i, res := range r {
		errs[i] = res.ErrorProbability
		throughputs[i] = res.OptimalThroughput
	}
	return errs, throughputs
}

// ShardSizes returns the shard size of every result, in order.
func (r Results) ShardSizes() []int {
	sizes := make([]int, len(r))
	for i, res := range r {
		sizes[i] = res.ShardSize
	}
	return sizes
}

// BestWithin returns the result with the highest throughput whose error
// probability does not exceed maxError. Ties keep the earliest result.
// The boolean is false when no result qualifies or maxError is not positive.
func (r Results) BestWithin(maxError float64) (Result, bool) {
	i := r.BestIndexWithin(maxError)
	if i < 0 {
		return Result{}, false
	}
	return r[i], true
}

// BestIndexWithin is BestWithin by position. It returns -1 when no result
// qualifies, so duplicate shard sizes still resolve to a single row.
func (r Results) BestIndexWithin(maxError float64) int {
	if maxError <= 0 {
		return -1
	}

	best := -1
	for i, res := range r {
		if res.ErrorProbability > maxError {
			continue
		}
		if best < 0 || res.OptimalThroughput > r[best].OptimalThroughput {
			best = i
		}
	}
	return best
}
