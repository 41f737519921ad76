// seehuhn.de/go/glyphs - convert between Glyphs and Fontra font sources
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package fontra

// PointType describes the role of a point in a PackedPath.
type PointType uint8

// These are the point types used in PackedPath.PointTypes.  PointSmooth
// can be combined with PointOnCurve.
const (
	PointOnCurve       PointType = 0x00
	PointOffCurveQuad  PointType = 0x01
	PointOffCurveCubic PointType = 0x02
	PointSmooth        PointType = 0x08

	pointTypeMask PointType = 0x07
)

// IsOffCurve reports whether the point is a control point.
func (t PointType) IsOffCurve() bool {
	return t&pointTypeMask != PointOnCurve
}

// Segment types, as passed to PointPen.AddPoint.  Off-curve points use the
// empty segment type.
const (
	SegmentMove   = "move"
	SegmentLine   = "line"
	SegmentCurve  = "curve"
	SegmentQCurve = "qcurve"
)

// ContourInfo describes one contour of a PackedPath.  EndPoint is the index
// of the last point of the contour.
type ContourInfo struct {
	EndPoint int  `json:"endPoint"`
	IsClosed bool `json:"isClosed"`
}

// PackedPath stores a glyph outline as flat arrays.  Coordinates holds
// the x and y coordinates of all points, PointTypes one entry per point.
type PackedPath struct {
	Coordinates []float64     `json:"coordinates"`
	PointTypes  []PointType   `json:"pointTypes"`
	ContourInfo []ContourInfo `json:"contourInfo"`
}

// NumPoints returns the number of points in the path.
func (p *PackedPath) NumPoints() int {
	if p == nil {
		return 0
	}
	return len(p.PointTypes)
}

// IsEmpty reports whether the path has no contours.
func (p *PackedPath) IsEmpty() bool {
	return p == nil || len(p.ContourInfo) == 0
}

// PointPen receives outline data point by point.
type PointPen interface {
	BeginPath()
	AddPoint(x, y float64, segmentType string, smooth bool)
	EndPath()
	AddComponent(name string, t DecomposedTransform)
}

// DrawPoints sends the contours of p to pen.
func (p *PackedPath) DrawPoints(pen PointPen) {
	if p == nil {
		return
	}
	start := 0
	for _, info := range p.ContourInfo {
		end := info.EndPoint + 1
		if end <= start || end > len(p.PointTypes) {
			break
		}
		types := p.PointTypes[start:end]
		n := len(types)

		pen.BeginPath()
		for i, t := range types {
			x := p.Coordinates[2*(start+i)]
			y := p.Coordinates[2*(start+i)+1]
			if t.IsOffCurve() {
				pen.AddPoint(x, y, "", false)
				continue
			}

			var segmentType string
			switch {
			case !info.IsClosed && i == 0:
				segmentType = SegmentMove
			case i > 0:
				segmentType = segmentTypeAfter(types[i-1])
			default:
				segmentType = segmentTypeAfter(types[n-1])
			}
			pen.AddPoint(x, y, segmentType, t&PointSmooth != 0)
		}
		pen.EndPath()

		start = end
	}
}

func segmentTypeAfter(prev PointType) string {
	switch prev & pointTypeMask {
	case PointOffCurveCubic:
		return SegmentCurve
	case PointOffCurveQuad:
		return SegmentQCurve
	default:
		return SegmentLine
	}
}

// PackedPathPointPen is a PointPen which records the contours into a
// PackedPath.  Components are ignored.
type PackedPathPointPen struct {
	path    PackedPath
	current []penPoint
	open    bool
}

type penPoint struct {
	x, y        float64
	segmentType string
	smooth      bool
}

// NewPackedPathPointPen returns a new pen.
func NewPackedPathPointPen() *PackedPathPointPen {
	return &PackedPathPointPen{
		path: PackedPath{
			Coordinates: []float64{},
			PointTypes:  []PointType{},
			ContourInfo: []ContourInfo{},
		},
	}
}

// BeginPath implements the PointPen interface.
func (pen *PackedPathPointPen) BeginPath() {
	pen.current = pen.current[:0]
	pen.open = true
}

// AddPoint implements the PointPen interface.
func (pen *PackedPathPointPen) AddPoint(x, y float64, segmentType string, smooth bool) {
	pen.current = append(pen.current, penPoint{x, y, segmentType, smooth})
}

// EndPath implements the PointPen interface.
func (pen *PackedPathPointPen) EndPath() {
	if !pen.open {
		return
	}
	pen.open = false
	pts := pen.current
	if len(pts) == 0 {
		return
	}
	isClosed := pts[0].segmentType != SegmentMove

	types := make([]PointType, len(pts))
	for i, pt := range pts {
		if pt.segmentType == "" {
			types[i] = PointOffCurveCubic
			continue
		}
		types[i] = PointOnCurve
		if pt.smooth {
			types[i] |= PointSmooth
		}
	}

	// off-curve points leading into a quadratic segment
	n := len(pts)
	for i, pt := range pts {
		if pt.segmentType != SegmentQCurve {
			continue
		}
		for k := 1; k < n; k++ {
			j := i - k
			if j < 0 {
				if !isClosed {
					break
				}
				j += n
			}
			if pts[j].segmentType != "" {
				break
			}
			types[j] = PointOffCurveQuad
		}
	}

	for _, pt := range pts {
		pen.path.Coordinates = append(pen.path.Coordinates, pt.x, pt.y)
	}
	pen.path.PointTypes = append(pen.path.PointTypes, types...)
	pen.path.ContourInfo = append(pen.path.ContourInfo, ContourInfo{
		EndPoint: len(pen.path.PointTypes) - 1,
		IsClosed: isClosed,
	})
}

// AddComponent implements the PointPen interface.
func (pen *PackedPathPointPen) AddComponent(name string, t DecomposedTransform) {}

// Path returns the recorded path.
func (pen *PackedPathPointPen) Path() *PackedPath {
	res := pen.path
	return &res
}
