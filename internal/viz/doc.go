// Package viz renders bisection results for the terminal.
//
// Rendering is driven by a [Theme] turned into [Styles]:
//
//   - [Styles.TraceTable]: the iteration table
//   - [Styles.RenderResult]: problem summary, root, table and function plot
//   - [Form]: the interactive solver started by the tui command
//
// # Key Bindings
//
//	Enter      - Solve with the current fields
//	Tab/↑/↓    - Move between fields
//	Ctrl+T     - Cycle color themes
//	Esc/Ctrl+C - Quit
package viz
