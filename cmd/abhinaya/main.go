// Command abhinaya watches a camera or a recorded video for hand and face
// gestures and paints a short visual reaction onto each frame.
package main

func main() {
	Execute()
}
