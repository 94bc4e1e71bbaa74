// Package output renders review reports for terminals, PR comments, and
// machine consumers. A failed analyzer always renders as an explicit caveat;
// it is never confused with a clean zero-finding section.
package output
