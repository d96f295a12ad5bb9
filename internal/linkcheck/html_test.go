package linkcheck

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractHTMLLinks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "anchors, images, scripts and stylesheets",
			html: `<html><head>
				<link rel="stylesheet" href="css/book.css">
				<script src="js/book.js"></script>
			</head><body>
				<a href="ch2.html">next</a>
				<img src="img/logo.png">
			</body></html>`,
			want: []string{"css/book.css", "js/book.js", "ch2.html", "img/logo.png"},
		},
		{
			name: "absolute urls are kept",
			html: `<a href="https://example.com/docs">docs</a>`,
			want: []string{"https://example.com/docs"},
		},
		{
			name: "same-page fragments and non-fetchable schemes are dropped",
			html: `<a href="#top">top</a>
				<a href="mailto:team@example.com">mail</a>
				<a href="javascript:void(0)">js</a>
				<a href="tel:+123">call</a>
				<a href="ch3.html#setup">setup</a>`,
			want: []string{"ch3.html#setup"},
		},
		{
			name: "empty href is dropped",
			html: `<a href="">nothing</a>`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractHTMLLinks(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("extractHTMLLinks() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractHTMLLinks() got = %v, want %v", got, tt.want)
			}
		})
	}
}
