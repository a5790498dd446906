package progress

// NoopProgress ничего не выводит (CM_SHOW_PROGRESS=false).
type NoopProgress struct{}

// NewNoOp создаёт NoopProgress.
func NewNoOp() Progress {
	return &NoopProgress{}
}

func (*NoopProgress) Start(int64, string) {}
func (*NoopProgress) Advance(string)      {}
func (*NoopProgress) Finish()             {}
