// Package protocol implements the colon-delimited text protocol spoken by
// Mark Levinson No.502 series preamplifiers over TCP.
//
// Messages are single ASCII lines of the form
//
//	HEADER:SOURCE:COMMAND[:PARAM...]
//
// terminated by a carriage return. HEADER is one of RQST (request), RSP
// (response) or NTF (broadcast notification); SOURCE identifies the origin
// (CS control source, UI user interaction, AV component); COMMAND is a code
// from the grammar table (PWR, VOL, MUTE, ACT, ...). A PARAM of "?" queries
// the current value.
//
// The package provides three things:
//   - the static command table mapping logical operations to wire prefixes
//     (BuildRequest)
//   - reply marker constants used to classify responses to each query
//   - a message decoder (Decode) that classifies an arbitrary inbound line
//     against the grammar table
//
// Examples observed on the wire:
//
//	RQST:CS:PWR:?
//	RSP:CS:PWR:ON
//	RSP:CS:REQ_ACT_LIST:NAMES:Apple TV,Blu-Ray,TV
//	NTF:UI:VOL:23.5
package protocol
