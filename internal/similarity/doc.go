// Package similarity scores how alike two pack folders are.
//
// The score blends a lexical component (token-set Jaccard and edit ratio of
// sorted-token strings) with a small structural context component (parent
// name, depth, same pack). Names that reduce to the same token set score 1
// regardless of context, so "808_Subs" and "Sub_808" always match.
package similarity
