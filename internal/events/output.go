// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package events

import (
	"encoding/json"
	"fmt"

	"github.com/quedo-dev/quedo/internal/doctor"
)

// OutputKind tags a ControllerOutput's variant; JSON encodes it as the
// "type" field using these snake_case tags.
type OutputKind string

const (
	OutputStateChanged   OutputKind = "state_changed"
	OutputNotification   OutputKind = "notification"
	OutputDoctorReport   OutputKind = "doctor_report"
	OutputTranscriptReady OutputKind = "transcript_ready"
	OutputStopped        OutputKind = "stopped"
)

// ControllerOutput is emitted by the controller, in emission order, to the
// runtime harness. Stopped is terminal: exactly one per run, always last.
type ControllerOutput struct {
	Kind OutputKind

	State      ControllerState   // OutputStateChanged
	Message    string            // OutputNotification
	Doctor     doctor.Report     // OutputDoctorReport
	Transcript TranscriptResult  // OutputTranscriptReady
}

func StateChanged(s ControllerState) ControllerOutput {
	return ControllerOutput{Kind: OutputStateChanged, State: s}
}

func Notification(msg string) ControllerOutput {
	return ControllerOutput{Kind: OutputNotification, Message: msg}
}

func DoctorReport(r doctor.Report) ControllerOutput {
	return ControllerOutput{Kind: OutputDoctorReport, Doctor: r}
}

func TranscriptReady(r TranscriptResult) ControllerOutput {
	return ControllerOutput{Kind: OutputTranscriptReady, Transcript: r}
}

func Stopped() ControllerOutput {
	return ControllerOutput{Kind: OutputStopped}
}

// MarshalJSON encodes ControllerOutput as the tagged union {type, payload}.
func (o ControllerOutput) MarshalJSON() ([]byte, error) {
	var payload interface{}
	switch o.Kind {
	case OutputStateChanged:
		payload = o.State
	case OutputNotification:
		payload = struct {
			Message string `json:"message"`
		}{o.Message}
	case OutputDoctorReport:
		payload = o.Doctor
	case OutputTranscriptReady:
		payload = o.Transcript
	case OutputStopped:
		payload = nil
	default:
		return nil, fmt.Errorf("controller output: unknown kind %q", o.Kind)
	}

	return json.Marshal(struct {
		Type    OutputKind  `json:"type"`
		Payload interface{} `json:"payload,omitempty"`
	}{Type: o.Kind, Payload: payload})
}

// UnmarshalJSON decodes the tagged union produced by MarshalJSON.
func (o *ControllerOutput) UnmarshalJSON(data []byte) error {
	var env struct {
		Type    OutputKind      `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	o.Kind = env.Type
	switch env.Type {
	case OutputStateChanged:
		return json.Unmarshal(env.Payload, &o.State)
	case OutputNotification:
		var m struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return err
		}
		o.Message = m.Message
		return nil
	case OutputDoctorReport:
		return json.Unmarshal(env.Payload, &o.Doctor)
	case OutputTranscriptReady:
		return json.Unmarshal(env.Payload, &o.Transcript)
	case OutputStopped:
		return nil
	default:
		return fmt.Errorf("controller output: unknown type %q", env.Type)
	}
}
