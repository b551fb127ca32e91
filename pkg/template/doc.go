// Package template resolves %{ ... }% placeholders against a property bag.
//
// Three placeholder forms are recognised:
//
//	%{ name }%              the value of property name
//	%{ Name({"a":1}) }%     property Name called once with the JSON object
//	%{ Name([{...}]...) }%  property Name called once per array element
//
// Resolve returns a lazy sequence of assets in template order. Literal text
// around placeholders is preserved, and adjacent text assets are merged, so
// text without placeholders comes back as exactly one text asset equal to
// the input.
//
// A placeholder that cannot be resolved (unknown or reserved property,
// malformed JSON arguments, a call target that is not a renderer) is
// passed through as literal text and logged as a warning. Resolution never
// fails as a whole.
package template
