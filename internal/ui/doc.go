// Package ui presents search results in the terminal.
//
// A [Presenter] receives status lines and result sets from the controller. Two implementations exist:
//   - [TextPresenter] : writes rows to an io.Writer for one-shot CLI searches
//   - [ChannelPresenter] : forwards updates as messages to the interactive [Model]
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Controller actions run as commands off the update loop; presenter updates flow back through a channel that the model
// keeps draining, the same way progress updates would.
//
// Selecting a row only logs the item at debug level. There is no playback.
//
// Keys: tab cycles the search type, enter searches (or selects in the list), down/esc move between the input and the
// list, ctrl+l logs in, ctrl+o logs out, ctrl+c quits. Help is rendered with charmbracelet/bubbles/help.
package ui
