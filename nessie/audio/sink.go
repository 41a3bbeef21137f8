package audio

type discard struct{}

func (discard) WriteSamples([]int16) error { return nil }

// Discard is a Sink that drops every buffer.
var Discard Sink = discard{}

// Recorder keeps every buffer it receives. Useful for tests and for
// backends that pull audio at their own pace.
type Recorder struct {
	Buffers [][]int16
}

func (r *Recorder) WriteSamples(samples []int16) error {
	r.Buffers = append(r.Buffers, samples)
	return nil
}

// Frames returns the number of stereo frames recorded.
func (r *Recorder) Frames() int {
	n := 0
	for _, b := range r.Buffers {
		n += len(b) / 2
	}
	return n
}

type multiSink []Sink

// MultiSink hands every buffer to each sink in turn. Nil sinks are skipped
// and the first error is returned after all sinks ran.
func MultiSink(sinks ...Sink) Sink {
	var out multiSink
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m multiSink) WriteSamples(samples []int16) error {
	var first error
	for _, s := range m {
		if err := s.WriteSamples(samples); err != nil && first == nil {
			first = err
		}
	}
	return first
}
