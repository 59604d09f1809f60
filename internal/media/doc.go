// Package media manages the video source owned by an editing session:
// synchronous validation of the selected file, a staged copy with scoped
// acquisition, and guaranteed release of the backing file on teardown.
package media
