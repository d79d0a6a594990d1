package client_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"showcase/catalog/internal/client"
	"showcase/catalog/internal/client/assetstest"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTextReturnsRawBody(t *testing.T) {
	srv := assetstest.New(t, assetstest.Tree{
		"shoes/1/name.txt":        "Boot\n",
		"shoes/1/description.txt": "  <p>Warm</p>\n\n",
	})

	text, err := srv.Client.FetchText(context.Background(), "shoes/1/name.txt")
	require.NoError(t, err)
	assert.Equal(t, "Boot\n", text)

	text, err = srv.Client.FetchText(context.Background(), "shoes/1/description.txt")
	require.NoError(t, err)
	assert.Equal(t, "  <p>Warm</p>\n\n", text)
}

func TestFetchTextNotFound(t *testing.T) {
	srv := assetstest.New(t, assetstest.Tree{})

	_, err := srv.Client.FetchText(context.Background(), "shoes/1/name.txt")
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, client.KindMissing, client.ErrorType(err))
}

func TestFetchTextConnectionFailure(t *testing.T) {
	srv := assetstest.New(t, assetstest.Tree{})
	srv.Fail("categories.txt")

	_, err := srv.Client.FetchText(context.Background(), "categories.txt")
	require.Error(t, err)
	assert.False(t, client.IsNotFound(err))
	assert.Equal(t, client.KindConnection, client.ErrorType(err))
}

func TestFetchTextRefused(t *testing.T) {
	srv := assetstest.New(t, assetstest.Tree{})
	srv.Transport.RegisterResponder(http.MethodGet, assetstest.URL("categories.txt"),
		httpmock.NewStringResponder(http.StatusForbidden, "denied"))

	_, err := srv.Client.FetchText(context.Background(), "categories.txt")
	var assetErr *client.AssetError
	require.True(t, errors.As(err, &assetErr))
	assert.Equal(t, client.KindRefused, assetErr.Kind)
	assert.Equal(t, http.StatusForbidden, assetErr.Status)
	assert.Equal(t, "categories.txt", assetErr.Path)
}

func TestExists(t *testing.T) {
	srv := assetstest.New(t, assetstest.Tree{
		"shoes/1/image1.jpg": "jpeg",
	})
	srv.Fail("shoes/1/image2.jpg")

	ok, err := srv.Client.Exists(context.Background(), "shoes/1/image1.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = srv.Client.Exists(context.Background(), "shoes/1/image1.png")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = srv.Client.Exists(context.Background(), "shoes/1/image2.jpg")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestURL(t *testing.T) {
	srv := assetstest.New(t, assetstest.Tree{})

	assert.Equal(t, "http://assets.test/products/shoes/1/image1.jpg", srv.Client.URL("shoes/1/image1.jpg"))
	assert.Equal(t, "http://assets.test/products/link.txt", srv.Client.URL("/link.txt"))
	assert.Equal(t, "http://assets.test/products/new%20arrivals/1/name.txt", srv.Client.URL("new arrivals/1/name.txt"))
}
