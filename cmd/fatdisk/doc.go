// Fatdisk creates, fills and inspects fatfs disk images from the host.
//
// Usage:
//
//	fatdisk [-v] <command> [flags] args
//
// Commands:
//
//	format IMAGE                         create an empty image
//	pack HOSTDIR IMAGE                   create IMAGE from a host directory tree
//	unpack IMAGE HOSTDIR                 extract every file and directory of IMAGE
//	ls [-l] IMAGE [PATH]                 list a directory of IMAGE
//	export [--codec C] IMAGE ARCHIVE     write a compressed archive of IMAGE
//	import ARCHIVE IMAGE                 restore IMAGE from an archive
//
// Exit codes:
//
//	0  success
//	1  the command failed
//	2  bad arguments
package main
