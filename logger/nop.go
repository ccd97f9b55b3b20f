package logger

// Nop is a Logger that discards everything. Useful as a default in tests
// and benchmarks that would otherwise be dominated by abort chatter.
type Nop struct{}

var _ Logger = Nop{}

func (Nop) Debugf(string, ...any) {}
func (Nop) Infof(string, ...any)  {}
func (Nop) Warnf(string, ...any)  {}
func (Nop) Errorf(string, ...any) {}
func (Nop) Fatalf(string, ...any) {}
func (Nop) Panicf(string, ...any) {}
