package game

// ContextRecord is the fully serializable mirror of Context.
//
// The one field that cannot round-trip as data is AvailableCommands: a
// live registry holds handler functions. Snapshots store its name and
// the loader rebinds it through the story's registry table. CommandContent
// is already data (static lines or a named function reference).
type ContextRecord struct {
	SessionToken      string                    `json:"sessionToken"`
	CommanderName     string                    `json:"commanderName"`
	ActiveView        View                      `json:"activeView"`
	AvailableCommands string                    `json:"availableCommands"`
	CommandContent    map[string]CommandContent `json:"commandContent,omitempty"`
	ViewNotifications map[View]bool             `json:"viewNotifications,omitempty"`
	Systems           map[string]SystemState    `json:"systems"`
	Messages          []Message                 `json:"messages,omitempty"`
	MessageViews      []MessageView             `json:"messageViews,omitempty"`
	Logs              []LogEntry                `json:"logs,omitempty"`
	CaptainsLog       []CaptainsLogEntry        `json:"captainsLog,omitempty"`
	Objectives        []Objective               `json:"objectives,omitempty"`
	CommandCounts     map[string]int            `json:"commandCounts,omitempty"`
	Diagnostics       Diagnostics               `json:"diagnostics"`
	Mission           Mission                   `json:"mission"`
	AIChat            AIChat                    `json:"aiChat"`
	Repair            Repair                    `json:"repair"`
}

// Record converts a Context to its serializable form.
func (c Context) Record() ContextRecord {
	registry := ""
	if c.AvailableCommands != nil {
		registry = c.AvailableCommands.Name()
	}
	return ContextRecord{
		SessionToken:      c.SessionToken,
		CommanderName:     c.CommanderName,
		ActiveView:        c.ActiveView,
		AvailableCommands: registry,
		CommandContent:    c.CommandContent,
		ViewNotifications: c.ViewNotifications,
		Systems:           c.Systems,
		Messages:          c.Messages,
		MessageViews:      c.MessageViews,
		Logs:              c.Logs,
		CaptainsLog:       c.CaptainsLog,
		Objectives:        c.Objectives,
		CommandCounts:     c.CommandCounts,
		Diagnostics:       c.Diagnostics,
		Mission:           c.Mission,
		AIChat:            c.AIChat,
		Repair:            c.Repair,
	}
}

// ContextFromRecord rebuilds a live Context. The caller resolves the
// record's registry name to a CommandSet before calling.
func ContextFromRecord(rec ContextRecord, commands CommandSet) Context {
	return Context{
		SessionToken:      rec.SessionToken,
		CommanderName:     rec.CommanderName,
		ActiveView:        rec.ActiveView,
		AvailableCommands: commands,
		CommandContent:    rec.CommandContent,
		ViewNotifications: rec.ViewNotifications,
		Systems:           rec.Systems,
		Messages:          rec.Messages,
		MessageViews:      rec.MessageViews,
		Logs:              rec.Logs,
		CaptainsLog:       rec.CaptainsLog,
		Objectives:        rec.Objectives,
		CommandCounts:     rec.CommandCounts,
		Diagnostics:       rec.Diagnostics,
		Mission:           rec.Mission,
		AIChat:            rec.AIChat,
		Repair:            rec.Repair,
	}
}
