package integrations_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/matzehuels/spread/pkg/integrations"
)

func ExampleClient_GetText() {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "export const Button = () => null\n")
	}))
	defer srv.Close()

	client := integrations.NewClient(integrations.DefaultTimeout, 0, nil)
	text, err := client.GetText(context.Background(), srv.URL+"/button.tsx")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(text)
	// Output:
	// export const Button = () => null
}
