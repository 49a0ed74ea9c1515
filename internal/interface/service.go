package interfaces

type Service interface {
	Start() error
	Stop()
	// Done is closed when a shutdown was requested through the control
	// surface.
	Done() <-chan struct{}
}
