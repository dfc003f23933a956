// Package match ranks override keys for "did you mean" suggestions.
//
// Keys are compared per dot-separated segment: each segment is folded
// (lowercased, word separators dropped) and scored by Levenshtein
// similarity, so a typo in "adress.city" points at "address.city" and never
// at a key of another depth such as "city".
package match
