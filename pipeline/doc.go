// Package pipeline extracts the stages of an aggregation pipeline from the
// text a user types into an editor.
//
// The input is an array literal of stage objects written in a permissive
// object/array syntax: quoted or unquoted keys, single or double quoted
// strings, trailing commas, and comments anywhere.
//
//	[
//	  {$match: {status: 'active'}},
//	  {
//	    // $sort: {age: -1},
//	  },
//	]
//
// [Parse] returns one [Stage] per array element, in order. A stage whose
// object declares a property is enabled: its first key is the operator and
// the property's value, rendered canonically, is the source. A stage whose
// object is empty is treated as disabled: the editor commented out its body,
// so the operator and source are recovered from the comment text with
// [DecodeComment].
//
// # Failure Modes
//
// Text that cannot be parsed at all returns an error wrapping [ErrParse]
// with the underlying diagnostic. Text that parses but is not an array of
// object literals returns [ErrNotPipeline]. Neither is partial: the whole
// input is rejected.
//
// Comment recovery never fails. A disabled stage whose comment does not start
// with an operator has an empty [Stage.Operator], and one whose argument does
// not parse has an empty [Stage.Source]; the rest of the pipeline is still
// returned.
//
// # Canonical Sources
//
// Every [Stage.Source] comes from the renderer in package jsexpr, never from
// the input text, so the same argument always produces the same bytes no
// matter how it was indented or whether it was commented out:
//
//	{
//	  age: -1
//	}
//
// [Format] goes the other way, writing stages back as pipeline text that
// parses to the same stages.
package pipeline
