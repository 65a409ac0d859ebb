package prettyprinter

import (
	"testing"

	"github.com/funvibe/sophia/internal/treeio"
)

const shapes = `
classes:
  - class: Main
    constructor:
      locals:
        - s: Shape
        - i: int
        - l: "list(a: int, string)"
      body:
        - assign: [s, {new: [Square, 2]}]
        - for:
            init: [i, 0]
            cond: {bin: ["<", i, 3]}
            update: [i, {bin: [+, i, 1]}]
            body:
              - if:
                  cond: {not: {bin: ["==", i, 1]}}
                  then:
                    - print: {bin: ["*", {bin: [+, i, 1]}, 2]}
                  else:
                    - continue: ~
        - assign: [l, {list: [{postinc: i}, "x"]}]
        - print: {idx: [l, 1]}
        - print: {call: [{dot: [s, area]}]}
  - class: Shape
    methods:
      - name: area
        returns: int
        body:
          - return: 0
  - class: Square
    extends: Shape
    fields:
      - side: int
    constructor:
      args:
        - n: int
      body:
        - assign: [{dot: [this, side]}, n]
    methods:
      - name: area
        returns: int
        body:
          - return: {bin: ["-", {bin: [-, side, 1]}, {bin: [-, 0, side]}]}
      - name: reset
        body:
          - call: [{dot: [this, area]}]
          - return: ~
`

const want = `class Main {
    def Main() {
        s: Shape;
        i: int;
        l: list(a: int, string);

        s = new Square(2);
        for (i = 0; i < 3; i = i + 1) {
            if (not (i == 1)) {
                print((i + 1) * 2);
            } else {
                continue;
            }
        }
        l = [i++, "x"];
        print(l[1]);
        print(s.area());
    }
}

class Shape {
    def int area() {
        return 0;
    }
}

class Square extends Shape {
    side: int;

    def Square(n: int) {
        this.side = n;
    }

    def int area() {
        return side - 1 - (0 - side);
    }

    def void reset() {
        this.area();
        return;
    }
}
`

func TestPrintProgram(t *testing.T) {
	prog, err := treeio.Decode("shapes.yaml", []byte(shapes))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if got := Print(prog); got != want {
		t.Errorf("printed program mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
}

func TestAssignmentChainsRightAssociative(t *testing.T) {
	src := `
classes:
  - class: Main
    constructor:
      locals:
        - a: int
        - b: int
      body:
        - print: {assign: [a, {assign: [b, 1]}]}
        - print: {bin: [and, {bin: [or, true, false]}, false]}
`
	prog, err := treeio.Decode("chain.yaml", []byte(src))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	p := NewCodePrinter()
	for _, s := range prog.Classes[0].Constructor.Body {
		s.Accept(p)
	}

	want := "print(a = b = 1);\nprint((true or false) and false);\n"
	if got := p.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
