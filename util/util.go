package util

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

var scoreExtensions = []string{".mid", ".midi", ".musicxml", ".xml"}

func IsScorePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range scoreExtensions {
		if ext == v {
			return true
		}
	}
	return false
}

// GatherAllScorePaths walks path and returns every score file, sorted. A
// maxNum of 0 means no limit.
func GatherAllScorePaths(path string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsScorePath(s) {
			res = append(res, s)
		}
		return nil
	}
	if err := filepath.WalkDir(path, walk); err != nil {
		return nil, err
	}
	sort.Strings(res)
	if maxNum > 0 && len(res) > maxNum {
		res = res[:maxNum]
	}
	return res, nil
}

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	return maps.Keys(m)
}

// GetSortedKeys is GetKeys in ascending order.
func GetSortedKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := GetKeys(m)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Sum[A constraints.Integer](nums []A) uint64 {
	var total uint64
	for _, v := range nums {
		total += uint64(v)
	}
	return total
}
