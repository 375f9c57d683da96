package tags_test

import (
	"fmt"

	"tinyssg/internal/tags"
)

func ExampleRender() {
	page, err := tags.Render(
		"<h1>{{.title}}</h1>{{.content}}",
		"<p>Hello.</p>",
		map[string]string{"title": "Welcome"},
	)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(page)

	_, err = tags.Render("<h1>{{.title}}</h1>{{.content}}", "", map[string]string{})
	fmt.Println("Error:", err)
	// Output:
	// <h1>Welcome</h1><p>Hello.</p>
	// Error: could not find tag {{.title}} in metadata
}
