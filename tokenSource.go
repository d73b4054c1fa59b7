package timingtest

// TokenSource identifies which part of the loop produced an error or sample.
type TokenSource int

const (
	// TokenLoop is the loop itself.
	TokenLoop TokenSource = iota
	// TokenSimulate is the fixed-step Simulate function.
	TokenSimulate
	// TokenRender is the elastic-step Render function.
	TokenRender
)

func (t TokenSource) String() string {
	switch t {
	case TokenLoop:
		return "loop"
	case TokenSimulate:
		return "simulate"
	case TokenRender:
		return "render"
	}
	return "unknown"
}
