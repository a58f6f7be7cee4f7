package main

import "github.com/hodory/beacon/cmd/beaconctl/arg"

func main() {
	arg.Execute()
}
