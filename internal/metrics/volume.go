package metrics

// VolumeSpikeCount counts observations whose volume strictly exceeds
// threshold times the mean volume of the whole sequence.
func VolumeSpikeCount(volumes []float64, threshold float64) (int, error) {
	if len(volumes) == 0 {
		return 0, ErrEmptySeries
	}
	limit := threshold * mean(volumes)
	count := 0
	for _, v := range volumes {
		if v > limit {
			count++
		}
	}
	return count, nil
}
