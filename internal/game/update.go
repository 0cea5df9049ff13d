package game

// UpdateKind tags a state-change record generated by the simulation.
type UpdateKind int

const (
	KindAllianceRequest UpdateKind = iota
	KindAllianceRequestReply
	KindBrokeAlliance
	KindAllianceExpired
	KindTargetPlayer
	KindDisplayMessage
	KindEmoji
)

// Update is a single state-change record. Concrete payloads are the
// *Update structs below; handlers type-assert on the kind they registered
// for.
type Update interface {
	Kind() UpdateKind
}

// Batch groups the updates generated since the previous tick by kind.
// Per-kind arrival order is preserved; kinds with no updates are absent.
type Batch map[UpdateKind][]Update

// AllianceRequestUpdate is an inbound alliance request.
type AllianceRequestUpdate struct {
	RequestorID PlayerID
	RecipientID PlayerID
}

func (AllianceRequestUpdate) Kind() UpdateKind { return KindAllianceRequest }

// AllianceRequestReplyUpdate is the recipient's decision on a request.
type AllianceRequestReplyUpdate struct {
	Request  AllianceRequestUpdate
	Accepted bool
}

func (AllianceRequestReplyUpdate) Kind() UpdateKind { return KindAllianceRequestReply }

// BrokeAllianceUpdate records a deliberately broken alliance.
type BrokeAllianceUpdate struct {
	TraitorID  PlayerID
	BetrayedID PlayerID
}

func (BrokeAllianceUpdate) Kind() UpdateKind { return KindBrokeAlliance }

// AllianceExpiredUpdate records an alliance that ran out its lifetime.
type AllianceExpiredUpdate struct {
	Player1ID PlayerID
	Player2ID PlayerID
}

func (AllianceExpiredUpdate) Kind() UpdateKind { return KindAllianceExpired }

// TargetPlayerUpdate is an ally's request to attack a third party.
type TargetPlayerUpdate struct {
	PlayerID PlayerID
	TargetID PlayerID
}

func (TargetPlayerUpdate) Kind() UpdateKind { return KindTargetPlayer }

// DisplayMessageUpdate is a generic display message. PlayerID is NoPlayer
// for untargeted messages. Message content is pre-sanitized rich text.
type DisplayMessageUpdate struct {
	Message  string
	Category MessageCategory
	PlayerID PlayerID
}

func (DisplayMessageUpdate) Kind() UpdateKind { return KindDisplayMessage }

// EmojiUpdate is an emoji sent between players. RecipientID is NoPlayer
// for broadcasts.
type EmojiUpdate struct {
	SenderID    PlayerID
	RecipientID PlayerID
	Message     string
}

func (EmojiUpdate) Kind() UpdateKind { return KindEmoji }
