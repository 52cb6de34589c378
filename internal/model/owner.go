package model

import "sort"

// AllUsers is the reserved owner value meaning "every account is an owner".
const AllUsers = "*"

// OwnerRef is a raw owner reference as written in a declaration: an email
// address or the all-users sentinel.
type OwnerRef string

func (r OwnerRef) IsAllUsers() bool {
	return string(r) == AllUsers
}

func (r OwnerRef) String() string {
	return string(r)
}

// Annotation keys interpreted by the engine. Unknown keys are preserved
// during evaluation but dropped before output.
const (
	// AnnotationNeverSuggest excludes the owner from suggestion results,
	// unless doing so would leave the result empty.
	AnnotationNeverSuggest = "NEVER_SUGGEST"

	// AnnotationLastResort is informational only.
	AnnotationLastResort = "LAST_RESORT"
)

// KnownAnnotation reports whether the engine interprets the given key.
func KnownAnnotation(key string) bool {
	return key == AnnotationNeverSuggest || key == AnnotationLastResort
}

// AnnotatedRef pairs a raw owner reference with its annotation keys.
type AnnotatedRef struct {
	Ref         OwnerRef
	Annotations []string
}

// HasAnnotation reports whether the reference carries the given key.
func (a AnnotatedRef) HasAnnotation(key string) bool {
	for _, k := range a.Annotations {
		if k == key {
			return true
		}
	}
	return false
}

// KnownAnnotations returns the sorted subset of annotation keys the engine
// interprets.
func (a AnnotatedRef) KnownAnnotations() []string {
	var out []string
	for _, k := range a.Annotations {
		if KnownAnnotation(k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
