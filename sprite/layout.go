package sprite

import "image"

// Member pairs a reference occurrence with its decoded image.
type Member struct {
	Occurrence *ReferenceOccurrence
	Image      image.Image
}

// Placement is a member with its assigned offset along the packing axis.
type Placement struct {
	Member
	Offset int
}

// SpriteImage is the computed layout of one sprite group: final canvas
// dimensions and the ordered member placements. Built once per sprite id,
// consumed by rendering and replacement building.
type SpriteImage struct {
	Occurrence *ImageOccurrence
	Width      int
	Height     int
	Placements []Placement
}

func (s *SpriteImage) Layout() Layout {
	return s.Occurrence.Directive.Layout
}

// BuildSpriteImage walks the members in packing order, assigning each the
// offset accumulated before its own footprint and accumulating the footprint
// after. The cross-axis extent is the maximum member footprint in that
// axis, since members overlay there.
func BuildSpriteImage(occ *ImageOccurrence, members []Member) *SpriteImage {
	layout := occ.Directive.Layout

	var along, across int
	placements := make([]Placement, 0, len(members))
	for _, m := range members {
		var footprint, extent int
		if layout == LayoutVertical {
			footprint = m.Occurrence.RequiredHeight(m.Image, layout)
			extent = m.Occurrence.RequiredWidth(m.Image, layout)
		} else {
			footprint = m.Occurrence.RequiredWidth(m.Image, layout)
			extent = m.Occurrence.RequiredHeight(m.Image, layout)
		}
		placements = append(placements, Placement{Member: m, Offset: along})
		along += footprint
		if extent > across {
			across = extent
		}
	}

	s := &SpriteImage{Occurrence: occ, Placements: placements}
	if layout == LayoutVertical {
		s.Width, s.Height = across, along
	} else {
		s.Width, s.Height = along, across
	}
	return s
}
