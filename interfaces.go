package invokable

import (
	"github.com/zhulik/invokable/pkg/annotations"
)

// AnnotationDeclarer is an optional interface that can be implemented by annotated types to declare their
// annotations next to the methods instead of calling Annotate.
//
//	func (*Runner) DeclareAnnotations(d *invokable.Declaration) {
//		d.Annotate("Run", Handle{Value: "runner"})
//	}
//
// DeclareAnnotations is called once per type on a zero value.
type AnnotationDeclarer = annotations.Declarer

// Declaration collects the annotations of an AnnotationDeclarer.
type Declaration = annotations.Declaration
