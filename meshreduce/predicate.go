package meshreduce

import "github.com/go-gl/mathgl/mgl64"

// shouldBlockNormal decides whether the mesh-space contact (position,
// normal) infringes triangle t's Voronoi region (spec.md §4.3).
func shouldBlockNormal(t *testTriangle, position, normal mgl64.Vec3) bool {
	var d [4]float64
	for lane := 0; lane < 4; lane++ {
		dx := position.X() - t.AnchorX[lane]
		dy := position.Y() - t.AnchorY[lane]
		dz := position.Z() - t.AnchorZ[lane]
		d[lane] = dx*t.NX[lane] + dy*t.NY[lane] + dz*t.NZ[lane]
	}

	for lane := 0; lane < 4; lane++ {
		if d[lane] > t.DistanceThreshold {
			return false
		}
	}

	negThreshold := -t.DistanceThreshold * edgePresenceCoefficient
	onAB := d[1] >= negThreshold
	onBC := d[2] >= negThreshold
	onCA := d[3] >= negThreshold

	if !onAB && !onBC && !onCA {
		return true
	}

	ndAB := normal.X()*t.NX[1] + normal.Y()*t.NY[1] + normal.Z()*t.NZ[1]
	ndBC := normal.X()*t.NX[2] + normal.Y()*t.NY[2] + normal.Z()*t.NZ[2]
	ndCA := normal.X()*t.NX[3] + normal.Y()*t.NY[3] + normal.Z()*t.NZ[3]

	strictlyInfringed := (onAB && ndAB > strictInfringementEpsilon) ||
		(onBC && ndBC > strictInfringementEpsilon) ||
		(onCA && ndCA > strictInfringementEpsilon)

	everyTouchedEdgeAtLeastLenient := (!onAB || ndAB > lenientInfringementEpsilon) &&
		(!onBC || ndBC > lenientInfringementEpsilon) &&
		(!onCA || ndCA > lenientInfringementEpsilon)

	return strictlyInfringed && everyTouchedEdgeAtLeastLenient
}
