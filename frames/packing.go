package frames

import "image"

// Homogenize redistributes f's anchored children to equal shares of f's
// primary axis, discarding whatever split they previously held. Docked
// children keep their own primary-axis length and only shift the running
// cursor; floating children are left untouched. A Stacked container gives
// every non-floating child the full rectangle (spec §4.3 "homogenize").
// Repositioning goes through SetSize rather than a raw assignment, so a
// ramified child's own subtree (e.g. a workspace sitting inside a container
// that just made room for a dock) is relaid out to match, not left stale.
//
// Grounded on cognitive/frames/src/packing.rs's homogenize/reflow_children,
// which always divides the remaining length evenly rather than weighting by
// each child's previous size.
func (f Frame) Homogenize() {
	n := f.n()
	rect := f.Rectangle()

	if n.geometry == Stacked {
		for c := f.FirstSpatialChild(); c.Valid(); c = c.SpatialNext() {
			if c.Mobility() == Floating {
				continue
			}
			c.SetPosition(rect.Min)
			c.SetSize(rect.Size())
		}
		return
	}

	horizontal := n.geometry == Horizontal
	total, perp := rect.Dx(), rect.Dy()
	if !horizontal {
		total, perp = rect.Dy(), rect.Dx()
	}

	dockedTotal, anchoredCount := 0, 0
	for c := f.FirstSpatialChild(); c.Valid(); c = c.SpatialNext() {
		switch c.Mobility() {
		case Docked:
			dockedTotal += axisLength(c.Size(), horizontal)
		case Anchored:
			anchoredCount++
		}
	}
	remaining := total - dockedTotal
	if remaining < 0 {
		remaining = 0
	}
	share := 0
	if anchoredCount > 0 {
		share = remaining / anchoredCount
	}

	cursor := rect.Min.X
	perpOrigin := rect.Min.Y
	if !horizontal {
		cursor, perpOrigin = rect.Min.Y, rect.Min.X
	}

	anchoredIdx, allocated := 0, 0
	for c := f.FirstSpatialChild(); c.Valid(); c = c.SpatialNext() {
		switch c.Mobility() {
		case Floating:
			continue
		case Docked:
			length := axisLength(c.Size(), horizontal)
			setAxisRect(c, horizontal, cursor, perpOrigin, length, perp)
			cursor += length
		case Anchored:
			length := share
			if anchoredIdx == anchoredCount-1 {
				length = remaining - allocated
			}
			if length < 0 {
				length = 0
			}
			allocated += length
			setAxisRect(c, horizontal, cursor, perpOrigin, length, perp)
			cursor += length
			anchoredIdx++
		}
	}
}

// Relax is homogenize: every call site that used to ask for a proportional
// reflow gets an equal split instead (spec §4.3 "relax (equivalent to
// homogenize)"), matching cognitive/frames/src/packing.rs's
// `fn relax(&mut self) { self.homogenize() }`.
func (f Frame) Relax() { f.Homogenize() }

func axisLength(size image.Point, horizontal bool) int {
	if horizontal {
		return size.X
	}
	return size.Y
}

func setAxisRect(c Frame, horizontal bool, pos, perpOrigin, length, perp int) {
	if horizontal {
		c.SetPosition(image.Pt(pos, perpOrigin))
		c.SetSize(image.Pt(length, perp))
	} else {
		c.SetPosition(image.Pt(perpOrigin, pos))
		c.SetSize(image.Pt(perp, length))
	}
}

// SetSize sets f's own size, reflows f's children to fit, and reconfigures
// f's surface through the installed hook if f carries one. Resizing along
// only the orthogonal axis (e.g. a display getting taller but not wider) is
// handled without a full relax: each anchored child's primary-axis length
// is left alone and only the orthogonal dimension is pushed down into it,
// recursively. A Stacked container always propagates the complete new size
// to every non-floating child. Grounded on cognitive/frames/src/packing.rs's
// set_size, including its directed-geometry shortcut.
func (f Frame) SetSize(size image.Point) {
	old := f.Size()
	n := f.n()
	f.setSizeRaw(size)

	switch n.geometry {
	case Stacked:
		pos := f.Position()
		for c := f.FirstSpatialChild(); c.Valid(); c = c.SpatialNext() {
			if c.Mobility() == Floating {
				continue
			}
			c.SetPosition(pos)
			c.SetSize(size)
		}
	case Horizontal:
		if old.X == size.X {
			for c := f.FirstSpatialChild(); c.Valid(); c = c.SpatialNext() {
				if c.Mobility() != Anchored {
					continue
				}
				c.SetSize(image.Pt(c.Size().X, size.Y))
			}
		} else {
			f.Relax()
		}
	case Vertical:
		if old.Y == size.Y {
			for c := f.FirstSpatialChild(); c.Valid(); c = c.SpatialNext() {
				if c.Mobility() != Anchored {
					continue
				}
				c.SetSize(image.Pt(size.X, c.Size().Y))
			}
		} else {
			f.Relax()
		}
	}

	if n.surfaceID != InvalidSurfaceID && f.t.reconfigure != nil {
		f.t.reconfigure(n.surfaceID, size)
	}
}

// RemoveSelf detaches f from its parent and relaxes the parent's remaining
// children to reclaim the freed space. Unlike Destroy, f is not freed and
// may be reattached elsewhere.
func (f Frame) RemoveSelf() {
	parent := f.Parent()
	f.Remove()
	if parent.Valid() {
		parent.Relax()
	}
}
