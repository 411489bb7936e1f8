package fsutil

import (
	"path/filepath"
	"sort"
	"sync"
)

// Path mutex registry to protect operations on the same paths
var (
	pathMutexes sync.Map // Maps paths to mutexes
)

// GetPathMutex returns a mutex for the given path
func GetPathMutex(path string) *sync.Mutex {
	// Normalize the path so different spellings of the same file share a lock
	normalizedPath := filepath.Clean(path)

	actual, _ := pathMutexes.LoadOrStore(normalizedPath, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// acquireMutexes acquires multiple mutexes in a consistent order to prevent deadlocks
func acquireMutexes(paths ...string) func() {
	sortedPaths := make([]string, len(paths))
	for i, p := range paths {
		sortedPaths[i] = filepath.Clean(p)
	}
	sort.Strings(sortedPaths)

	var mutexes []*sync.Mutex
	for i, path := range sortedPaths {
		if i > 0 && path == sortedPaths[i-1] {
			continue
		}
		mu := GetPathMutex(path)
		mu.Lock()
		mutexes = append(mutexes, mu)
	}

	// Release in reverse order
	return func() {
		for i := len(mutexes) - 1; i >= 0; i-- {
			mutexes[i].Unlock()
		}
	}
}
