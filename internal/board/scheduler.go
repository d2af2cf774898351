package board

// Scheduler coalesces redraw requests into at most one draw per frame.
type Scheduler struct {
	dirty    bool
	requests int
	frames   int
}

// Request marks the scene dirty. Repeated requests before the next frame
// collapse into one redraw.
func (s *Scheduler) Request() {
	s.dirty = true
	s.requests++
}

func (s *Scheduler) Dirty() bool { return s.dirty }

// Frame runs draw if a redraw is pending and reports whether it ran. The
// dirty flag stays set when draw fails so the next frame retries.
func (s *Scheduler) Frame(draw func() error) (bool, error) {
	if !s.dirty {
		return false, nil
	}
	if err := draw(); err != nil {
		return false, err
	}
	s.dirty = false
	s.frames++
	return true, nil
}

// Frames returns the number of completed redraws.
func (s *Scheduler) Frames() int { return s.frames }

// Requests returns the number of redraw requests made.
func (s *Scheduler) Requests() int { return s.requests }
