// Package extractor turns fetched page markup into structured products
// using a hosted language model.
package extractor

import "strings"

const systemPrompt = `You are a product information extraction expert. You extract structured product data from webpage HTML and respond with nothing but a JSON array.`

// BuildExtractionPrompt creates the prompt for product extraction.
func BuildExtractionPrompt(content, pageURL, query string) string {
	var prompt strings.Builder

	prompt.WriteString("Extract product information from the HTML below.\n")
	prompt.WriteString("Focus on products related to the query: \"" + query + "\".\n\n")
	prompt.WriteString(`Return a JSON array of products, each with the following fields:
- name: Name of the product
- price: Price (as string, include currency)
- description: Brief description
- url: Product URL (use the provided URL if direct product links not found)
- imageUrl: URL of the product image (if found, otherwise null)
- features: Array of key product features
- dealScore: Number between 0-100 rating how good of a deal this is
- specs: Object with key specs as properties
- brand: Brand name if available
- category: Product category

Only include products that are relevant to the query.
If no products are found, return an empty array.
`)
	prompt.WriteString("\nThe query is: " + query + "\n")
	prompt.WriteString("The URL is: " + pageURL + "\n")
	prompt.WriteString("\nHTML Content:\n")
	prompt.WriteString(content)
	prompt.WriteString("\n\nExtract the product information and respond ONLY with the JSON array.\n")

	return prompt.String()
}
