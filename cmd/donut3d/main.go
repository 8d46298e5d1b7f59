// Command donut3d renders donut charts from YAML data files as X3D scenes.
package main

func main() {
	Execute()
}
