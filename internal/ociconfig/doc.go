// Package ociconfig parses OCI-style credentials files: a sectioned key=value
// text format where each [section] names a profile.
//
//	[DEFAULT]
//	key_file=/home/me/.oci/key.pem
//	region=eu-marseille-1
//
// Only the subset needed to locate a profile's private key is supported. This
// is not a general INI parser: there is no quoting, no escaping, no line
// continuation and no inheritance between sections.
package ociconfig
