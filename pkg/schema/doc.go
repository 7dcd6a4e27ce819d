// Package schema validates the params of animation definitions.
//
// A definition declares each param with a type name and an optional default:
//
//	params:
//	  time:   {type: timing, default: 300ms}
//	  height: {type: style}
//	  count:  {type: int, default: 3}
//
// FromParams turns those declarations into a Schema and Validate checks the
// values a caller supplies, defaults included, reporting every failure at once
// through an AggregateError:
//
//	s, err := schema.FromParams(def.Params)
//	if err != nil {
//	    return err
//	}
//	if err := schema.Validate(s, params); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        log.Println(e)
//	    }
//	}
//
// Besides the basic string, int, float and bool types, "number" accepts any
// numeric value or numeric text, "timing" accepts animation timings such as
// "1s 100ms ease-out" or a number of milliseconds, and "style" accepts any
// value that renders as a style value. Slices are written "[type]".
package schema
