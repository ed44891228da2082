package game

// EventType discriminates inbound events.
//
// Every event the engine accepts is listed here. Consumers switch over
// EventType exhaustively; adding a new event means adding a constant, a
// payload struct, and handling wherever events are consumed.
type EventType string

const (
	EventStartGame             EventType = "START_GAME"
	EventChangeView            EventType = "CHANGE_VIEW"
	EventCommandExecuted       EventType = "COMMAND_EXECUTED"
	EventAddMessage            EventType = "ADD_MESSAGE"
	EventMessageOpened         EventType = "MESSAGE_OPENED"
	EventAddLog                EventType = "ADD_LOG"
	EventUpdateDiagnostics     EventType = "UPDATE_DIAGNOSTICS"
	EventUpdateSystemStatus    EventType = "UPDATE_SYSTEM_STATUS"
	EventUpdateSystemIntegrity EventType = "UPDATE_SYSTEM_INTEGRITY"
	EventStartRepair           EventType = "START_REPAIR"
	EventCompleteRepair        EventType = "COMPLETE_REPAIR"
	EventRecoverEnergy         EventType = "RECOVER_ENERGY"
	EventAIChatAddMessage      EventType = "AI_CHAT_ADD_MESSAGE"
	EventAddObjective          EventType = "ADD_OBJECTIVE"
	EventUpdateObjective       EventType = "UPDATE_OBJECTIVE"
	EventCompleteObjective     EventType = "COMPLETE_OBJECTIVE"
	EventFinishedIntroSequence EventType = "FINISHED_INTRO_SEQUENCE"
	EventKeypress              EventType = "KEYPRESS"
)

// Event is the tagged union of all inbound events.
//
// Payloads are plain structs; an Event carries no behavior beyond its
// discriminator. Events are immutable once dispatched.
type Event interface {
	Type() EventType
}

// StartGame sets the commander name. The name is set once; later
// StartGame events are ignored by the machine.
type StartGame struct {
	CommanderName string
}

func (StartGame) Type() EventType { return EventStartGame }

// ChangeView moves UI focus and clears the target view's notification.
type ChangeView struct {
	View View
}

func (ChangeView) Type() EventType { return EventChangeView }

// CommandExecuted records that the terminal ran a recognized command
// that produced output. The command name is lowercased by the sender.
type CommandExecuted struct {
	Command string
}

func (CommandExecuted) Type() EventType { return EventCommandExecuted }

// AddMessage appends an inbound message and flags the communications
// view as unread.
type AddMessage struct {
	Message Message
}

func (AddMessage) Type() EventType { return EventAddMessage }

// MessageOpened records that the player opened a message.
type MessageOpened struct {
	MessageID string
}

func (MessageOpened) Type() EventType { return EventMessageOpened }

// AddLog appends a system event log entry and flags the logs view.
type AddLog struct {
	Log LogEntry
}

func (AddLog) Type() EventType { return EventAddLog }

// UpdateDiagnostics recomputes the bounded random-walk diagnostics.
type UpdateDiagnostics struct{}

func (UpdateDiagnostics) Type() EventType { return EventUpdateDiagnostics }

// UpdateSystemStatus sets a ship system's status (and optionally its
// integrity) and re-derives its metrics.
type UpdateSystemStatus struct {
	SystemName string
	Status     SystemStatus
	Integrity  *float64
}

func (UpdateSystemStatus) Type() EventType { return EventUpdateSystemStatus }

// UpdateSystemIntegrity sets a ship system's integrity and re-derives
// its metrics. Status is left untouched.
type UpdateSystemIntegrity struct {
	SystemName string
	Integrity  float64
}

func (UpdateSystemIntegrity) Type() EventType { return EventUpdateSystemIntegrity }

// StartRepair opens a repair job if energy and materials suffice.
type StartRepair struct {
	SystemName string
	RepairType RepairType
}

func (StartRepair) Type() EventType { return EventStartRepair }

// CompleteRepair finishes the active repair job for a system, applying
// the integrity bonus. No-op when no job is active for the system.
type CompleteRepair struct {
	SystemName string
}

func (CompleteRepair) Type() EventType { return EventCompleteRepair }

// RecoverEnergy applies an explicit energy amount, or elapsed-time
// recovery when Amount is nil.
type RecoverEnergy struct {
	Amount *float64
}

func (RecoverEnergy) Type() EventType { return EventRecoverEnergy }

// AIChatAddMessage appends a message to the AI chat transcript.
type AIChatAddMessage struct {
	Message ChatMessage
}

func (AIChatAddMessage) Type() EventType { return EventAIChatAddMessage }

// AddObjective appends an objective if its id is not already present.
type AddObjective struct {
	Objective Objective
}

func (AddObjective) Type() EventType { return EventAddObjective }

// UpdateObjective sets an objective's status by id.
type UpdateObjective struct {
	ObjectiveID string
	Status      ObjectiveStatus
}

func (UpdateObjective) Type() EventType { return EventUpdateObjective }

// CompleteObjective marks an objective completed by id.
type CompleteObjective struct {
	ObjectiveID string
}

func (CompleteObjective) Type() EventType { return EventCompleteObjective }

// FinishedIntroSequence signals the boot animation finished.
type FinishedIntroSequence struct{}

func (FinishedIntroSequence) Type() EventType { return EventFinishedIntroSequence }

// Keypress is a raw key event, consumed only by the intro sequence to
// let the player skip the boot animation.
type Keypress struct {
	Key string
}

func (Keypress) Type() EventType { return EventKeypress }
