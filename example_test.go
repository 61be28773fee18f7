package urlregex_test

import (
	"fmt"

	"github.com/muratoffalex/urlregex"
)

func ExampleGet() {
	p, err := urlregex.Get()
	if err != nil {
		panic(err)
	}

	fmt.Println(p.Matches("http://foo.com/blah_blah"))
	fmt.Println(p.Matches("http://10.1.1.1"))
	// Output:
	// true
	// false
}

func ExampleWithSchemeRequired() {
	p := urlregex.MustGet(urlregex.WithSchemeRequired(false))

	fmt.Println(p.Matches("example.com/path"))
	fmt.Println(p.Matches("-a.b.co"))
	// Output:
	// true
	// false
}

func ExamplePattern_FindAll() {
	p := urlregex.MustGet(urlregex.WithMode(urlregex.Parsing))

	for _, m := range p.FindAll("Visit http://example.com and https://foo.bar/baz?q=1 now") {
		fmt.Println(m.Start, m.End, m.Text)
	}
	// Output:
	// 6 24 http://example.com
	// 29 52 https://foo.bar/baz?q=1
}
