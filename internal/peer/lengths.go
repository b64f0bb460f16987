package peer

// Muscle index ranges of the four controlled groups within the reference
// 18-muscle frame.
var groupRanges = [4][2]int{
	{0, 3},   // DELT1 DELT2 DELT3
	{8, 11},  // PECM1 PECM2 PECM3
	{12, 15}, // TRIlong TRIlat TRImed
	{15, 18}, // BIClong BICshort BRA
}

var GroupNames = [4]string{"deltoid", "pectoralis", "triceps", "biceps/brachialis"}

// GroupLengths reduces an 18-muscle length frame to one length per group.
// branch[g] == 0 averages the group; n picks its n-th muscle (1-based).
func GroupLengths(lengths []float64, branch [4]int) ([4]float64, bool) {
	var out [4]float64
	if len(lengths) < DefaultMuscles {
		return out, false
	}
	for g, r := range groupRanges {
		size := r[1] - r[0]
		b := branch[g]
		switch {
		case b == 0:
			var sum float64
			for _, v := range lengths[r[0]:r[1]] {
				sum += v
			}
			out[g] = sum / float64(size)
		case b >= 1 && b <= size:
			out[g] = lengths[r[0]+b-1]
		default:
			return out, false
		}
	}
	return out, true
}
