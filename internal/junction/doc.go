// Package junction maps dependencies that cross into another project onto
// canonical element keys.
//
// A junction element links a subproject. Elements of that subproject are
// keyed "<junction-key>:<path>", which nests for junctions inside
// subprojects. The LocalResolver loads each linked project at most once, from
// a directory on disk; fetching the subproject's sources is someone else's
// job.
package junction
