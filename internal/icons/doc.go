// Package icons defines the badge icon taxonomy: icon types, their
// filename prefixes, loading modes, and the candidate-identifier chains
// used to locate an icon in the custom folder or the embedded bundle.
package icons
