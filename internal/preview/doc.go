// Package preview renders OPC pixel frames in the terminal.
//
// RenderStrip draws a strand as a row of colored blocks using lipgloss.
// Model is a Bubble Tea model that keeps the latest frame per channel and is
// fed FrameMsg and ConfigMsg values, typically by the receiver handler of
// `opcplay listen`. When stdout is not a terminal, Printer writes one line
// per frame instead.
package preview
