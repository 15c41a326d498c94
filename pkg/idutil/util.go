package idutil

import (
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// NewNode returns a snowflake node whose id is derived from the host name, so processes on
// different hosts generate disjoint ids.
func NewNode() (*snowflake.Node, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, err
	}

	h := fnv.New32a()
	h.Write([]byte(hostname))
	return snowflake.NewNode(int64(h.Sum32() % 1024))
}

// Time returns the unix millisecond timestamp embedded in a snowflake id.
func Time(id int64) int64 {
	return snowflake.ParseInt64(id).Time()
}
