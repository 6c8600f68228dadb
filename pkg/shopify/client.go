package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nfluential/storefront-api/internal/models"
)

// Client defines the Storefront API operations the service consumes.
type Client interface {
	CartCreate(ctx context.Context, lines []CartLineInput) (*Cart, error)
	CartLinesAdd(ctx context.Context, cartID string, lines []CartLineInput) (*Cart, error)
	CartLinesUpdate(ctx context.Context, cartID string, lines []CartLineUpdateInput) (*Cart, error)
	CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*Cart, error)
	GetCart(ctx context.Context, cartID string) (*Cart, error)
	ListProducts(ctx context.Context, first int) ([]models.Product, error)
	ListCollectionProducts(ctx context.Context, handle string, first int) ([]models.Product, error)
	GetProductByHandle(ctx context.Context, handle string) (*models.Product, error)
}

// Cart is the remote cart snapshot as the commerce backend reports it.
type Cart struct {
	ID          string
	CheckoutURL string
	Lines       []CartLine
}

type CartLine struct {
	ID              string
	VariantID       string
	Quantity        int
	Price           models.Money
	ProductTitle    string
	ProductHandle   string
	ImageURL        string
	SelectedOptions []models.SelectedOption
}

type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

type CartLineUpdateInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type storefrontClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

func NewClient(endpoint string, token string) Client {
	return &storefrontClient{
		endpoint: endpoint,
		token:    token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

const cartFields = `
	id
	checkoutUrl
	lines(first: 100) {
		edges {
			node {
				id
				quantity
				merchandise {
					... on ProductVariant {
						id
						price { amount currencyCode }
						selectedOptions { name value }
						product {
							title
							handle
							featuredImage { url }
						}
					}
				}
			}
		}
	}`

const productFields = `
	id
	title
	handle
	description
	images(first: 10) {
		edges { node { url altText } }
	}
	variants(first: 50) {
		edges {
			node {
				id
				title
				availableForSale
				price { amount currencyCode }
				selectedOptions { name value }
			}
		}
	}`

var (
	cartCreateMutation = fmt.Sprintf(`
		mutation cartCreate($input: CartInput!) {
			cartCreate(input: $input) {
				cart { %s }
				userErrors { field message }
			}
		}`, cartFields)

	cartLinesAddMutation = fmt.Sprintf(`
		mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
			cartLinesAdd(cartId: $cartId, lines: $lines) {
				cart { %s }
				userErrors { field message }
			}
		}`, cartFields)

	cartLinesUpdateMutation = fmt.Sprintf(`
		mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
			cartLinesUpdate(cartId: $cartId, lines: $lines) {
				cart { %s }
				userErrors { field message }
			}
		}`, cartFields)

	cartLinesRemoveMutation = fmt.Sprintf(`
		mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
			cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
				cart { %s }
				userErrors { field message }
			}
		}`, cartFields)

	cartQuery = fmt.Sprintf(`
		query cart($id: ID!) {
			cart(id: $id) { %s }
		}`, cartFields)

	productsQuery = fmt.Sprintf(`
		query products($first: Int!) {
			products(first: $first) {
				edges { node { %s } }
			}
		}`, productFields)

	collectionProductsQuery = fmt.Sprintf(`
		query collectionProducts($handle: String!, $first: Int!) {
			collectionByHandle(handle: $handle) {
				products(first: $first) {
					edges { node { %s } }
				}
			}
		}`, productFields)

	productByHandleQuery = fmt.Sprintf(`
		query productByHandle($handle: String!) {
			productByHandle(handle: $handle) { %s }
		}`, productFields)
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *storefrontClient) do(ctx context.Context, query string, variables map[string]any, out any) error {

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build graphql request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read storefront response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storefront responded with status %d", resp.StatusCode)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("malformed storefront response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("storefront error: %s", envelope.Errors[0].Message)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("malformed storefront payload: %w", err)
	}

	return nil
}

// wire types mirroring the Storefront API connection shapes

type moneyNode struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type cartNode struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Lines       struct {
		Edges []struct {
			Node struct {
				ID          string `json:"id"`
				Quantity    int    `json:"quantity"`
				Merchandise struct {
					ID              string                  `json:"id"`
					Price           moneyNode               `json:"price"`
					SelectedOptions []models.SelectedOption `json:"selectedOptions"`
					Product         struct {
						Title         string `json:"title"`
						Handle        string `json:"handle"`
						FeaturedImage *struct {
							URL string `json:"url"`
						} `json:"featuredImage"`
					} `json:"product"`
				} `json:"merchandise"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
}

type productNode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Description string `json:"description"`
	Images      struct {
		Edges []struct {
			Node struct {
				URL     string `json:"url"`
				AltText string `json:"altText"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID               string                  `json:"id"`
				Title            string                  `json:"title"`
				AvailableForSale bool                    `json:"availableForSale"`
				Price            moneyNode               `json:"price"`
				SelectedOptions  []models.SelectedOption `json:"selectedOptions"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type cartMutationPayload struct {
	Cart       *cartNode   `json:"cart"`
	UserErrors []userError `json:"userErrors"`
}

func (n *cartNode) toCart() *Cart {

	cart := &Cart{
		ID:          n.ID,
		CheckoutURL: n.CheckoutURL,
	}

	for _, edge := range n.Lines.Edges {
		line := CartLine{
			ID:              edge.Node.ID,
			VariantID:       edge.Node.Merchandise.ID,
			Quantity:        edge.Node.Quantity,
			Price:           models.Money(edge.Node.Merchandise.Price),
			ProductTitle:    edge.Node.Merchandise.Product.Title,
			ProductHandle:   edge.Node.Merchandise.Product.Handle,
			SelectedOptions: edge.Node.Merchandise.SelectedOptions,
		}

		if edge.Node.Merchandise.Product.FeaturedImage != nil {
			line.ImageURL = edge.Node.Merchandise.Product.FeaturedImage.URL
		}

		cart.Lines = append(cart.Lines, line)
	}

	return cart
}

func (n *productNode) toProduct() models.Product {

	product := models.Product{
		ID:          n.ID,
		Title:       n.Title,
		Handle:      n.Handle,
		Description: n.Description,
	}

	for _, edge := range n.Images.Edges {
		product.Images = append(product.Images, models.ProductImage{
			URL:     edge.Node.URL,
			AltText: edge.Node.AltText,
		})
	}

	for _, edge := range n.Variants.Edges {
		product.Variants = append(product.Variants, models.ProductVariant{
			ID:               edge.Node.ID,
			Title:            edge.Node.Title,
			Price:            models.Money(edge.Node.Price),
			AvailableForSale: edge.Node.AvailableForSale,
			SelectedOptions:  edge.Node.SelectedOptions,
		})
	}

	return product
}

func (p *cartMutationPayload) result(operation string) (*Cart, error) {

	if len(p.UserErrors) > 0 {
		return nil, fmt.Errorf("%s rejected: %s", operation, p.UserErrors[0].Message)
	}

	if p.Cart == nil {
		return nil, fmt.Errorf("%s returned no cart", operation)
	}

	return p.Cart.toCart(), nil
}

func (c *storefrontClient) CartCreate(ctx context.Context, lines []CartLineInput) (*Cart, error) {

	var payload struct {
		CartCreate cartMutationPayload `json:"cartCreate"`
	}

	variables := map[string]any{
		"input": map[string]any{"lines": lines},
	}

	if err := c.do(ctx, cartCreateMutation, variables, &payload); err != nil {
		return nil, err
	}

	return payload.CartCreate.result("cartCreate")
}

func (c *storefrontClient) CartLinesAdd(ctx context.Context, cartID string, lines []CartLineInput) (*Cart, error) {

	var payload struct {
		CartLinesAdd cartMutationPayload `json:"cartLinesAdd"`
	}

	variables := map[string]any{
		"cartId": cartID,
		"lines":  lines,
	}

	if err := c.do(ctx, cartLinesAddMutation, variables, &payload); err != nil {
		return nil, err
	}

	return payload.CartLinesAdd.result("cartLinesAdd")
}

func (c *storefrontClient) CartLinesUpdate(ctx context.Context, cartID string, lines []CartLineUpdateInput) (*Cart, error) {

	var payload struct {
		CartLinesUpdate cartMutationPayload `json:"cartLinesUpdate"`
	}

	variables := map[string]any{
		"cartId": cartID,
		"lines":  lines,
	}

	if err := c.do(ctx, cartLinesUpdateMutation, variables, &payload); err != nil {
		return nil, err
	}

	return payload.CartLinesUpdate.result("cartLinesUpdate")
}

func (c *storefrontClient) CartLinesRemove(ctx context.Context, cartID string, lineIDs []string) (*Cart, error) {

	var payload struct {
		CartLinesRemove cartMutationPayload `json:"cartLinesRemove"`
	}

	variables := map[string]any{
		"cartId":  cartID,
		"lineIds": lineIDs,
	}

	if err := c.do(ctx, cartLinesRemoveMutation, variables, &payload); err != nil {
		return nil, err
	}

	return payload.CartLinesRemove.result("cartLinesRemove")
}

func (c *storefrontClient) GetCart(ctx context.Context, cartID string) (*Cart, error) {

	var payload struct {
		Cart *cartNode `json:"cart"`
	}

	if err := c.do(ctx, cartQuery, map[string]any{"id": cartID}, &payload); err != nil {
		return nil, err
	}

	if payload.Cart == nil {
		return nil, fmt.Errorf("cart %s not found", cartID)
	}

	return payload.Cart.toCart(), nil
}

func (c *storefrontClient) ListProducts(ctx context.Context, first int) ([]models.Product, error) {

	var payload struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}

	if err := c.do(ctx, productsQuery, map[string]any{"first": first}, &payload); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(payload.Products.Edges))
	for _, edge := range payload.Products.Edges {
		products = append(products, edge.Node.toProduct())
	}

	return products, nil
}

func (c *storefrontClient) ListCollectionProducts(ctx context.Context, handle string, first int) ([]models.Product, error) {

	var payload struct {
		CollectionByHandle *struct {
			Products struct {
				Edges []struct {
					Node productNode `json:"node"`
				} `json:"edges"`
			} `json:"products"`
		} `json:"collectionByHandle"`
	}

	variables := map[string]any{
		"handle": handle,
		"first":  first,
	}

	if err := c.do(ctx, collectionProductsQuery, variables, &payload); err != nil {
		return nil, err
	}

	if payload.CollectionByHandle == nil {
		return nil, fmt.Errorf("collection %s not found", handle)
	}

	products := make([]models.Product, 0, len(payload.CollectionByHandle.Products.Edges))
	for _, edge := range payload.CollectionByHandle.Products.Edges {
		products = append(products, edge.Node.toProduct())
	}

	return products, nil
}

func (c *storefrontClient) GetProductByHandle(ctx context.Context, handle string) (*models.Product, error) {

	var payload struct {
		ProductByHandle *productNode `json:"productByHandle"`
	}

	if err := c.do(ctx, productByHandleQuery, map[string]any{"handle": handle}, &payload); err != nil {
		return nil, err
	}

	if payload.ProductByHandle == nil {
		return nil, fmt.Errorf("product %s not found", handle)
	}

	product := payload.ProductByHandle.toProduct()

	return &product, nil
}
