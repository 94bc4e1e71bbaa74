// Package cache stores raw model replies on disk so repeated reviews of an
// unchanged diff skip the provider call.
package cache
