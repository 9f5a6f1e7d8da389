package file

import (
	"github.com/jsphweid/harmonycheck/model"
	"github.com/jsphweid/harmonycheck/util"
)

// CreateFileNumMap numbers the paths in the order given, from 0.
func CreateFileNumMap(paths []string) model.FileNumToScorePath {
	res := make(model.FileNumToScorePath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

// OrderedPaths lists the paths of a file map by number.
func OrderedPaths(m model.FileNumToScorePath) []string {
	var res []string
	for _, num := range util.GetSortedKeys(m) {
		res = append(res, m[num])
	}
	return res
}
