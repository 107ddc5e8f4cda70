// Package protocol implements the wire protocol between the lesson server
// and its thin browser client.
//
// Every WebSocket message is one frame with a 4-byte header and a JSON
// payload:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameHello (0x00): client connection setup (Hello)
//   - FrameEvent (0x01): client events (Event)
//   - FramePatches (0x02): region patches (Patches)
//   - FrameControl (0x03): document event capture, reload (Control)
//   - FrameError (0x05): event errors (ErrorMessage)
package protocol
