// Package content holds the static narrative tables: messages, captain's
// log entries, objective definitions, boot/system log lines, and the
// registry of named content functions used by per-step command output
// overrides.
//
// Tables live in embedded YAML under tables/ and are validated against
// schema.cue at package init. Content is pure data; a malformed table is
// a programmer error and panics immediately rather than surfacing as a
// broken narrative mid-game.
package content

import (
	"embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/helios-os/helios/internal/game"
)

//go:embed tables/*.yaml
var tablesFS embed.FS

//go:embed schema.cue
var schemaCUE string

// messagesTable mirrors tables/messages.yaml.
type messagesTable struct {
	Initial   []game.Message          `yaml:"initial"`
	Triggered map[string]game.Message `yaml:"triggered"`
}

// objectivesTable mirrors tables/objectives.yaml.
type objectivesTable struct {
	Initial  []game.Objective          `yaml:"initial"`
	Deferred map[string]game.Objective `yaml:"deferred"`
}

// captainsLogTable mirrors tables/captains_log.yaml.
type captainsLogTable struct {
	Entries []game.CaptainsLogEntry `yaml:"entries"`
}

// logsTable mirrors tables/logs.yaml.
type logsTable struct {
	Boot      []string                 `yaml:"boot"`
	Triggered map[string]game.LogEntry `yaml:"triggered"`
}

var (
	messages    messagesTable
	objectives  objectivesTable
	captainsLog captainsLogTable
	logs        logsTable
)

func init() {
	cuectx := cuecontext.New()
	schema := cuectx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		panic(fmt.Sprintf("content: schema.cue does not compile: %v", err))
	}

	loadTable(cuectx, schema, "tables/messages.yaml", "#Messages", &messages)
	loadTable(cuectx, schema, "tables/objectives.yaml", "#Objectives", &objectives)
	loadTable(cuectx, schema, "tables/captains_log.yaml", "#CaptainsLog", &captainsLog)
	loadTable(cuectx, schema, "tables/logs.yaml", "#Logs", &logs)
}

// loadTable validates one YAML table against a schema definition and
// unmarshals it into out. Panics on any failure: the tables are build
// artifacts, not user input.
func loadTable(cuectx *cue.Context, schema cue.Value, path, def string, out any) {
	data, err := tablesFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("content: read %s: %v", path, err))
	}

	file, err := cueyaml.Extract(path, data)
	if err != nil {
		panic(fmt.Sprintf("content: parse %s: %v", path, err))
	}
	val := cuectx.BuildFile(file)
	if err := val.Err(); err != nil {
		panic(fmt.Sprintf("content: build %s: %v", path, err))
	}

	defVal := schema.LookupPath(cue.ParsePath(def))
	if err := defVal.Err(); err != nil {
		panic(fmt.Sprintf("content: schema definition %s: %v", def, err))
	}
	if err := defVal.Unify(val).Validate(cue.Concrete(true)); err != nil {
		panic(fmt.Sprintf("content: %s violates %s: %v", path, def, err))
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("content: unmarshal %s: %v", path, err))
	}
}

// InitialMessages returns the messages present at boot.
func InitialMessages() []game.Message {
	out := make([]game.Message, len(messages.Initial))
	copy(out, messages.Initial)
	return out
}

// TriggeredMessage looks up a message delivered by narrative actions.
func TriggeredMessage(key string) (game.Message, bool) {
	m, ok := messages.Triggered[key]
	return m, ok
}

// InitialObjectives returns the boot-time objectives, all active.
func InitialObjectives() []game.Objective {
	out := make([]game.Objective, len(objectives.Initial))
	for i, o := range objectives.Initial {
		o.Status = game.ObjectiveActive
		out[i] = o
	}
	return out
}

// DeferredObjective looks up an objective appended by narrative actions.
// The returned objective is active.
func DeferredObjective(key string) (game.Objective, bool) {
	o, ok := objectives.Deferred[key]
	if ok {
		o.Status = game.ObjectiveActive
	}
	return o, ok
}

// CaptainsLog returns the static narrative diary.
func CaptainsLog() []game.CaptainsLogEntry {
	out := make([]game.CaptainsLogEntry, len(captainsLog.Entries))
	copy(out, captainsLog.Entries)
	return out
}

// BootLines returns the intro boot sequence text.
func BootLines() []string {
	out := make([]string, len(logs.Boot))
	copy(out, logs.Boot)
	return out
}

// TriggeredLog looks up a system log entry appended by narrative actions.
func TriggeredLog(key string) (game.LogEntry, bool) {
	l, ok := logs.Triggered[key]
	return l, ok
}
