// Package fileutil provides the small file operations needed to prepare the
// host side of container bind mounts: directory creation, create-if-absent
// files and existence checks.
package fileutil
