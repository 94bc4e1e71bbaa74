// Package github fetches pull-request diffs and posts review reports back
// as PR comments through the GitHub REST API.
package github
