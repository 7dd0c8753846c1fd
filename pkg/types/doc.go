// Package types defines the skill record, the partial-update patch, the Store
// interface and the sentinel errors shared by every skilllog package.
//
// A skill is a short note with a title, free text, a category, a
// comma-separated tag list, a pin level from 0 to 5 and a completion flag.
// Records are loosely structured: fields that older builds never wrote are
// defaulted when read, and fields this build does not know are carried
// through untouched.
package types
