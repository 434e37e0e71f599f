// SPDX-License-Identifier: MPL-2.0

// Package installer replaces the BlendLux installation on disk with a
// downloaded release build using a backup-and-swap scheme: download to a
// scoped temp directory, rename the installation root aside as a backup,
// extract the archive, then either discard the backup (success) or restore
// it (rollback). Only a successful extraction advances the installed
// version; every failure before that leaves the installation untouched.
//
// The flow is single-threaded and blocking, and takes no lock on the
// installation directory. Two concurrent update invocations are an
// unhandled race. If the process dies between the backup rename and the
// post-extract cleanup, the backup directory on disk is the manual
// recovery anchor: rename it back over the (possibly partial) root.
package installer
