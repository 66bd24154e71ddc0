package live

// Effects is what a coordinator operation computes instead of touching the
// transport: frames for the caller, frames for the whole room, frames for
// specific users, and optionally a room for the caller to join. The gateway
// applies them in that order, join first. Keeping coordinators free of the
// hub makes authorization and state logic testable without sockets.
type Effects struct {
	roomID   uint
	joinRoom bool
	caller   []frame
	room     []frame
	users    []userFrame
}

type frame struct {
	event string
	data  interface{}
}

type userFrame struct {
	userID uint
	frame
}

func newEffects(roomID uint) *Effects {
	return &Effects{roomID: roomID}
}

func (e *Effects) JoinRoom() *Effects {
	e.joinRoom = true
	return e
}

func (e *Effects) ToCaller(event string, data interface{}) *Effects {
	e.caller = append(e.caller, frame{event: event, data: data})
	return e
}

func (e *Effects) ToRoom(event string, data interface{}) *Effects {
	e.room = append(e.room, frame{event: event, data: data})
	return e
}

func (e *Effects) ToUser(userID uint, event string, data interface{}) *Effects {
	e.users = append(e.users, userFrame{userID: userID, frame: frame{event: event, data: data}})
	return e
}
