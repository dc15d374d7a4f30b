// Command ganymede runs the Mercator usage-metering and
// optimization-analytics engine.
package main

func main() {
	Execute()
}
