package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/helios-os/helios/internal/game"
)

// Scenario is one scripted play-through: a sequence of terminal inputs,
// raw events and clock advances, followed by assertions on the final
// game state and the terminal transcript.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps is the ordered script.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and transcript.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one scripted action. Exactly one of Input, Event and Advance
// is set per step.
type Step struct {
	// Input is a terminal input line, processed under the full terminal
	// contract: command resolution, content overrides, execution events
	// and open dialogs.
	Input string `yaml:"input,omitempty"`

	// Event names a raw event to send, e.g. "CHANGE_VIEW". The
	// remaining fields supply its payload.
	Event string `yaml:"event,omitempty"`

	// Advance moves the manual scheduler's clock, firing due timers.
	// A time.ParseDuration string, e.g. "400ms" or "8s".
	Advance string `yaml:"advance,omitempty"`

	Commander   string            `yaml:"commander,omitempty"`
	View        string            `yaml:"view,omitempty"`
	MessageID   string            `yaml:"message_id,omitempty"`
	System      string            `yaml:"system,omitempty"`
	Status      string            `yaml:"status,omitempty"`
	Integrity   *float64          `yaml:"integrity,omitempty"`
	RepairType  string            `yaml:"repair_type,omitempty"`
	Amount      *float64          `yaml:"amount,omitempty"`
	Message     *game.Message     `yaml:"message,omitempty"`
	Log         *game.LogEntry    `yaml:"log,omitempty"`
	Chat        *game.ChatMessage `yaml:"chat,omitempty"`
	Objective   *game.Objective   `yaml:"objective,omitempty"`
	ObjectiveID string            `yaml:"objective_id,omitempty"`
}

// Assertion validates one fact about the final state.
type Assertion struct {
	// Type selects the check:
	//   state             - a region's active state path
	//   objective         - an objective's status
	//   notification      - a view's notification flag
	//   commander         - the registered commander name
	//   command_available - whether a command resolves in the current set
	//   command_count     - a command's executed count
	//   system            - a ship system's status (and optionally integrity)
	//   resources         - repair energy/materials
	//   unread            - the unread message count
	//   output_contains   - the transcript contains a substring
	Type string `yaml:"type"`

	Region    string   `yaml:"region,omitempty"`
	State     string   `yaml:"state,omitempty"`
	ID        string   `yaml:"id,omitempty"`
	Status    string   `yaml:"status,omitempty"`
	View      string   `yaml:"view,omitempty"`
	On        *bool    `yaml:"on,omitempty"`
	Name      string   `yaml:"name,omitempty"`
	Available *bool    `yaml:"available,omitempty"`
	Count     *int     `yaml:"count,omitempty"`
	System    string   `yaml:"system,omitempty"`
	Integrity *float64 `yaml:"integrity,omitempty"`
	Energy    *float64 `yaml:"energy,omitempty"`
	Materials *int     `yaml:"materials,omitempty"`
	Text      string   `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertState            = "state"
	AssertObjective        = "objective"
	AssertNotification     = "notification"
	AssertCommander        = "commander"
	AssertCommandAvailable = "command_available"
	AssertCommandCount     = "command_count"
	AssertSystem           = "system"
	AssertResources        = "resources"
	AssertUnread           = "unread"
	AssertOutputContains   = "output_contains"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail the scenario instead of silently skipping a
// check.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		set := 0
		if step.Input != "" {
			set++
		}
		if step.Event != "" {
			set++
		}
		if step.Advance != "" {
			set++
		}
		if set != 1 {
			return fmt.Errorf("steps[%d]: exactly one of input, event, advance is required", i)
		}
		if step.Advance != "" {
			if _, err := time.ParseDuration(step.Advance); err != nil {
				return fmt.Errorf("steps[%d]: bad advance duration: %w", i, err)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertState:
		if a.Region == "" || a.State == "" {
			return fmt.Errorf("assertions[%d]: region and state are required for state", index)
		}
	case AssertObjective:
		if a.ID == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: id and status are required for objective", index)
		}
	case AssertNotification:
		if a.View == "" || a.On == nil {
			return fmt.Errorf("assertions[%d]: view and on are required for notification", index)
		}
	case AssertCommander:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for commander", index)
		}
	case AssertCommandAvailable:
		if a.Name == "" || a.Available == nil {
			return fmt.Errorf("assertions[%d]: name and available are required for command_available", index)
		}
	case AssertCommandCount:
		if a.Name == "" || a.Count == nil {
			return fmt.Errorf("assertions[%d]: name and count are required for command_count", index)
		}
	case AssertSystem:
		if a.System == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: system and status are required for system", index)
		}
	case AssertResources:
		if a.Energy == nil && a.Materials == nil {
			return fmt.Errorf("assertions[%d]: energy or materials is required for resources", index)
		}
	case AssertUnread:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for unread", index)
		}
	case AssertOutputContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_contains", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
