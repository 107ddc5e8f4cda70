package protocol

import (
	"encoding/json"
	"fmt"
)

// Encode marshals v as the JSON payload of a frame of type ft.
func Encode(ft FrameType, v any) (*Frame, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	return NewFrame(ft, payload), nil
}

// Decode unmarshals the payload of f into v after checking its type.
func Decode(f *Frame, want FrameType, v any) error {
	if f.Type != want {
		return fmt.Errorf("%w: got %s, want %s", ErrUnexpectedFrame, f.Type, want)
	}
	return json.Unmarshal(f.Payload, v)
}

// EncodePatches encodes a patch batch, splitting it across several frames
// when it does not fit in one. The last frame carries FlagFinal. A single
// patch larger than a frame is an error.
func EncodePatches(seq uint64, patches []Patch) ([]*Frame, error) {
	f, err := Encode(FramePatches, Patches{Seq: seq, Patches: patches})
	if err == nil {
		f.Flags |= FlagFinal
		return []*Frame{f}, nil
	}
	if err != ErrFrameTooLarge || len(patches) <= 1 {
		return nil, err
	}

	mid := len(patches) / 2
	head, err := EncodePatches(seq, patches[:mid])
	if err != nil {
		return nil, err
	}
	tail, err := EncodePatches(seq, patches[mid:])
	if err != nil {
		return nil, err
	}
	for _, f := range head {
		f.Flags &^= FlagFinal
	}
	return append(head, tail...), nil
}
