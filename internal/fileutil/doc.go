// Package fileutil provides the directory walker and suffix matching used by
// the aggregator.
//
// # Walking
//
// Walk is a thin layer over filepath.WalkDir that prunes directories in two
// ways before descending into them:
//   - by name: any directory whose base name is in ExcludeDirs (".git", "bin", ...)
//     is skipped wherever it appears in the tree
//   - by location: any directory whose path is in SkipPaths (the aggregation
//     destination, the state directory) is skipped
//
// The walk visits entries in lexical order, so results are deterministic.
// Errors are not collected: the first failure to read a directory stops the
// walk and is returned to the caller.
//
//	err := fileutil.Walk(root, fileutil.WalkOptions{
//	    ExcludeDirs: []string{".git", "bin", "obj"},
//	    SkipPaths:   []string{filepath.Join(root, "FilesAggregate")},
//	}, func(path string, d fs.DirEntry) error {
//	    fmt.Println(path)
//	    return nil
//	})
//
// # Suffix matching
//
// MatchSuffix compares a file name against a list of literal suffixes.
// Compound suffixes such as ".xaml.cs" are matched against the full compound
// suffix of the name, not just the part after the last dot, and the longest
// matching entry wins:
//
//	ext, ok := fileutil.MatchSuffix("MainPage.xaml.cs", []string{".cs", ".xaml.cs"})
//	// ext == ".xaml.cs", ok == true
//
// Matching is case-sensitive.
package fileutil
