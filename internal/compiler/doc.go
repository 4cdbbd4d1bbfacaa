// Package compiler loads declarative pulse template definitions.
//
// Definitions can be written in CUE, YAML or HCL. Every format decodes into
// the same Definition tree, which Compile turns into serialization documents:
// one document per named template plus the root, laid out exactly the way
// serialization.Serializer stores them.
//
//	template: {
//		kind:      "loop"
//		condition: "c1"
//		body: {
//			kind:       "table"
//			identifier: "ramp"
//			entries: [
//				{time: 0, voltage: 0},
//				{time: "t_end", voltage: "v", interpolation: "linear"},
//			]
//		}
//	}
package compiler
