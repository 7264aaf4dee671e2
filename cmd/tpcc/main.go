package main

import (
	"github.com/hhkbp2/tpcc"
	"github.com/hhkbp2/tpcc/binding"
	"github.com/hhkbp2/tpcc/workload"
)

func main() {
	binding.AddBindings()
	workload.AddWorkloads()
	tpcc.Main()
}
