package pipeline

import "log"

// reservedGB is kept free for the elevation index and the OS.
const reservedGB = 5

// DetectMemoryGB returns the host's total memory in GB minus a reserve,
// and at least 1.
func DetectMemoryGB() int {
	total, ok := totalMemory()
	if !ok {
		log.Println("Warning: could not read host memory, sizing ranges for 1 GB")
		return 1
	}
	return memoryBudget(total)
}

func memoryBudget(totalBytes uint64) int {
	gb := int(totalBytes>>30) - reservedGB
	return max(gb, 1)
}

// RangeSizes returns how many relations and how many ways one range holds.
func RangeSizes(memoryGB, relationsPerGB, waysPerGB int) (relations, ways uint64) {
	memoryGB = max(memoryGB, 1)
	return uint64(memoryGB * relationsPerGB), uint64(memoryGB * waysPerGB)
}
