// Package geometry defines the source-to-detector line of sight shared by the
// particle source, the mesh obstruction, and the radiograph binner.
package geometry

import (
	"fmt"

	"github.com/san-kum/protorad/internal/phys"
)

// LineOfSight is the central axis of a radiography setup: a source point and
// a detector-plane center. The detector plane passes through Detector with
// the axis as its normal; E1/E2 span the in-plane coordinate system.
type LineOfSight struct {
	Source   phys.Vec3
	Detector phys.Vec3

	axis   phys.Vec3
	e1, e2 phys.Vec3
}

func New(source, detector phys.Vec3) (*LineOfSight, error) {
	d := detector.Sub(source)
	if d.Norm() == 0 {
		return nil, fmt.Errorf("source and detector coincide at %v", source)
	}
	l := &LineOfSight{Source: source, Detector: detector, axis: d.Unit()}
	l.e1, l.e2 = l.axis.Basis()
	return l, nil
}

// Axis returns the unit vector pointing from source to detector.
func (l *LineOfSight) Axis() phys.Vec3 { return l.axis }

// Length returns the source-to-detector distance.
func (l *LineOfSight) Length() float64 { return l.Detector.Sub(l.Source).Norm() }

// SignedDist is the distance of p past the detector plane; negative on the
// source side.
func (l *LineOfSight) SignedDist(p phys.Vec3) float64 {
	return p.Sub(l.Detector).Dot(l.axis)
}

// AxialDist is the distance of p from the source, measured along the axis.
func (l *LineOfSight) AxialDist(p phys.Vec3) float64 {
	return p.Sub(l.Source).Dot(l.axis)
}

// PlaneCoords projects p onto the detector plane's in-plane axes, measured
// from the detector center.
func (l *LineOfSight) PlaneCoords(p phys.Vec3) (u, v float64) {
	r := p.Sub(l.Detector)
	return r.Dot(l.e1), r.Dot(l.e2)
}

// PointAt returns the point a given axial distance from the source, on axis.
func (l *LineOfSight) PointAt(dist float64) phys.Vec3 {
	return l.Source.Add(l.axis.Scale(dist))
}

// InPlane converts in-plane coordinates (u, v) at axial distance dist into a
// 3D point.
func (l *LineOfSight) InPlane(dist, u, v float64) phys.Vec3 {
	return l.PointAt(dist).Add(l.e1.Scale(u)).Add(l.e2.Scale(v))
}
