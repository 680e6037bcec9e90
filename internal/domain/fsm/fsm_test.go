package fsm

import (
	"errors"
	"testing"

	"github.com/jsamuelsen11/teamspace/internal/domain"
)

type light string
type signal string

const (
	red    light = "RED"
	green  light = "GREEN"
	broken light = "BROKEN"

	goSignal   signal = "GO"
	stopSignal signal = "STOP"
)

func lights() Table[light, signal] {
	return Table[light, signal]{
		red:   {goSignal: green},
		green: {stopSignal: red},
	}
}

func TestTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		state   light
		event   signal
		want    light
		wantErr bool
	}{
		{name: "red to green", state: red, event: goSignal, want: green},
		{name: "green to red", state: green, event: stopSignal, want: red},
		{name: "stop while red", state: red, event: stopSignal, wantErr: true},
		{name: "state absent from table", state: broken, event: goSignal, wantErr: true},
		{name: "unknown event", state: red, event: "HONK", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Transition(lights(), tt.state, tt.event)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidTransition) {
					t.Fatalf("Transition(%s, %s) error = %v, want ErrInvalidTransition", tt.state, tt.event, err)
				}
				var derr *domain.Error
				if !errors.As(err, &derr) {
					t.Fatalf("errors.As(*domain.Error) = false for %v", err)
				}
				if derr.Details["currentState"] != string(tt.state) || derr.Details["eventType"] != string(tt.event) {
					t.Errorf("Details = %v, want currentState=%s eventType=%s", derr.Details, tt.state, tt.event)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition(%s, %s) error = %v", tt.state, tt.event, err)
			}
			if got != tt.want {
				t.Errorf("Transition(%s, %s) = %s, want %s", tt.state, tt.event, got, tt.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()
	if !CanTransition(lights(), red, goSignal) {
		t.Error("CanTransition(RED, GO) = false, want true")
	}
	if CanTransition(lights(), red, stopSignal) {
		t.Error("CanTransition(RED, STOP) = true, want false")
	}
}

func TestMachine(t *testing.T) {
	t.Parallel()

	table := lights()
	m := NewMachine("traffic", table)
	table[red][stopSignal] = broken

	if m.Can(red, stopSignal) {
		t.Error("machine must not see edits made to the source table after construction")
	}
	if m.Name() != "traffic" {
		t.Errorf("Name() = %q, want traffic", m.Name())
	}

	_, err := m.Next(green, goSignal)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("Next(GREEN, GO) error = %v, want ErrInvalidTransition", err)
	}
	if domain.CodeOf(err) != domain.CodeInvalidTransition {
		t.Errorf("CodeOf = %q, want %q", domain.CodeOf(err), domain.CodeInvalidTransition)
	}

	if got := m.Events(red); len(got) != 1 || got[0] != goSignal {
		t.Errorf("Events(RED) = %v, want [GO]", got)
	}
	if !m.IsTerminal(broken) {
		t.Error("IsTerminal(BROKEN) = false, want true")
	}
	if m.IsTerminal(red) {
		t.Error("IsTerminal(RED) = true, want false")
	}
}
