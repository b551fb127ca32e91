// Package errors provides coded, structured errors for weave.
//
// Every error the engine reports to a developer carries a short code
// (e.g. "W101") that maps to a registered message, a longer explanation
// and a category. Codes are stable so logs and tests can match on them.
//
// # Error Categories
//
//   - usage: programmer errors such as touching a reserved property key,
//     and CLI failures (W6xx)
//   - template: placeholder expressions that could not be resolved
//   - render: panics recovered while rendering or dispatching events
//   - transport: request failures surfaced by the transport package
//   - config: invalid configuration values
//
// # Usage
//
//	err := errors.New("W101").
//	    WithDetail(`key "__id" is reserved`).
//	    Wrap(props.ErrReservedKey)
//
//	fmt.Println(err.Format())
//	// ERROR W101: Reserved property key
//	//
//	//   key "__id" is reserved
//	//
//	//   Hint: rename the property; keys starting with "__" belong to the engine
package errors
