package export

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a message the user has to acknowledge.
type Notice struct {
	Level Level
	Title string
	Text  string
}

type Notifier interface {
	Notify(Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

var Discard Notifier = NotifierFunc(func(Notice) {})

// NoticeLog records notices in order so a UI can show them after the
// export returns.
type NoticeLog struct {
	Notices []Notice
}

func (l *NoticeLog) Notify(n Notice) {
	l.Notices = append(l.Notices, n)
}
